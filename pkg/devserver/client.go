package devserver

import "strings"

// ClientScript drives a snapshot page from its live session. It applies
// replace messages to the node at the target path under the body and sends
// clicks and link navigations back to the server.
const ClientScript = `
<script>
(function() {
    'use strict';

    var ws = null;

    function nodeAt(path) {
        var cur = document.body;
        if (path === '') return cur;
        var parts = path.split('/');
        for (var i = 0; i < parts.length && cur; i++) {
            cur = cur.childNodes[parseInt(parts[i], 10)];
        }
        return cur || null;
    }

    function pathOf(node) {
        var parts = [];
        while (node && node !== document.body) {
            var parent = node.parentNode;
            if (!parent) return null;
            parts.unshift(Array.prototype.indexOf.call(parent.childNodes, node));
            node = parent;
        }
        return node === document.body ? parts.join('/') : null;
    }

    function send(msg) {
        if (ws && ws.readyState === WebSocket.OPEN) {
            ws.send(JSON.stringify(msg));
        }
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var path = encodeURIComponent(location.pathname + location.search);
        ws = new WebSocket(protocol + '//' + location.host + '/_ive/live?path=' + path);

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }

            switch (msg.type) {
                case 'replace':
                    var target = nodeAt(msg.target);
                    if (target) {
                        var tpl = document.createElement('template');
                        tpl.innerHTML = msg.html;
                        target.replaceWith(tpl.content);
                    }
                    break;

                case 'navigate':
                    if (location.pathname + location.search !== msg.href) {
                        history.pushState(null, '', msg.href);
                    }
                    break;

                case 'reload':
                    location.reload();
                    break;

                case 'error':
                    console.error('[ive]', msg.error);
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(connect, 1000);
        };
    }

    document.addEventListener('click', function(e) {
        var link = e.target.closest && e.target.closest('a[data-link]');
        if (link) {
            e.preventDefault();
            send({type: 'navigate', href: link.getAttribute('href')});
            return;
        }
        var path = pathOf(e.target);
        if (path !== null) {
            send({type: 'click', target: path});
        }
    });

    window.addEventListener('popstate', function() {
        send({type: 'navigate', href: location.pathname + location.search, replace: true});
    });

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
</script>
`

// injectClient inserts ClientScript before </body>.
func injectClient(html string) string {
	if idx := strings.LastIndex(html, "</body>"); idx != -1 {
		return html[:idx] + ClientScript + html[idx:]
	}
	return html + ClientScript
}
